/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  overlay.go - Capa de còpia en escriptura. Les escriptures i els
 *               directoris nous van a una carpeta scratch del
 *               sistema amfitrió que reflecteix la jerarquia del VFS;
 *               els esborrats s'apunten en una llista negra de paths
 *               normalitzats. La imatge de baix no es toca mai.
 */

package vfs

import (
  "fmt"
  "strings"
  "sync"

  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

type overlay struct {

  fs utils.HostFS

  mu            sync.RWMutex
  scratch       string // Buit fins a la primera escriptura
  scratch_given bool   // Cert si l'ha proporcionat el caller
  blacklist     map[string]bool

}


/************/
/* FUNCIONS */
/************/

func newOverlay( fs utils.HostFS ) *overlay {
  return &overlay{
    fs: fs,
    blacklist: make(map[string]bool),
  }
} // end newOverlay


// Fixa la carpeta scratch. Les carpetes proporcionades pel caller no
// s'esborren en tancar.
func (self *overlay) setScratch( dir string ) {

  self.mu.Lock ()
  self.scratch= dir
  self.scratch_given= true
  self.mu.Unlock ()

} // end overlay.setScratch


// Crea la carpeta scratch si encara no existeix. Cal tindre agafat el
// mutex.
func (self *overlay) ensureScratch() (string,error) {

  if self.scratch == "" {
    dir,err:= self.fs.GetTempDirectory ()
    if err != nil {
      return "",fmt.Errorf ( "cannot create scratch directory: %w", err )
    }
    self.scratch= dir
  }

  return self.scratch,nil

} // end overlay.ensureScratch


func (self *overlay) close() error {

  self.mu.Lock ()
  defer self.mu.Unlock ()
  if self.scratch != "" && !self.scratch_given {
    if err:= self.fs.DeleteDirectory ( self.scratch ); err != nil {
      return err
    }
  }
  self.scratch= ""

  return nil

} // end overlay.close


// Localitza el path en la carpeta scratch sense distingir majúscules
// ASCII. Cal tindre agafat el mutex.
func (self *overlay) findScratch( segs []string ) (string,bool,bool) {

  if self.scratch == "" { return "",false,false }

  return walkHost ( self.fs, self.scratch, segs )

} // end overlay.findScratch


// Cert si el path o algun ancestre és en la llista negra. Cal tindre
// agafat el mutex.
func (self *overlay) isBlacklistedLocked( segs []string ) bool {

  for i:= 1; i <= len(segs); i++ {
    if self.blacklist[pathKey ( segs[:i] )] { return true }
  }

  return false

} // end overlay.isBlacklistedLocked


func (self *overlay) isBlacklisted( segs []string ) bool {

  self.mu.RLock ()
  defer self.mu.RUnlock ()

  return self.isBlacklistedLocked ( segs )

} // end overlay.isBlacklisted


// Prepara els directoris ancestres en la carpeta scratch reutilitzant
// el cas real dels que ja existeixen. Torna el path real del pare.
// Cal tindre agafat el mutex.
func (self *overlay) ensureAncestors( segs []string ) (string,error) {

  root,err:= self.ensureScratch ()
  if err != nil { return "",err }

  real:= root
  for _,seg:= range segs[:len(segs)-1] {

    dirs,err:= self.fs.ListDirectories ( real )
    if err != nil { return "",err }
    found:= ""
    for _,d:= range dirs {
      if foldEqual ( d, seg ) { found= d; break }
    }
    if found == "" { found= seg }
    real= real + "/" + found
    if err:= self.fs.CreateDirectory ( real ); err != nil {
      return "",err
    }

  }

  return real,nil

} // end overlay.ensureAncestors


// Escriu el fitxer en la capa. L'escriptura rehabilita el path si
// estava esborrat.
func (self *overlay) write( segs []string, data []byte ) error {

  if len(segs) == 0 {
    return fmt.Errorf ( "cannot write to the root directory: %w",
      utils.ErrNotSupported )
  }

  self.mu.Lock ()
  defer self.mu.Unlock ()

  // Si ja existia amb un altre cas, reutilitza el nom real.
  name:= segs[len(segs)-1]
  if real,is_dir,found:= self.findScratch ( segs ); found && !is_dir {
    pos:= strings.LastIndexByte ( real, '/' )
    name= real[pos+1:]
  }

  parent,err:= self.ensureAncestors ( segs )
  if err != nil { return err }
  if err:= self.fs.WriteAllBytes ( parent+"/"+name, data ); err != nil {
    return err
  }

  // L'escriptura rehabilita el path sencer.
  for i:= 1; i <= len(segs); i++ {
    delete ( self.blacklist, pathKey ( segs[:i] ) )
  }

  return nil

} // end overlay.write


// Esborra el path de la capa: s'apunta en la llista negra i, si té
// còpia en la carpeta scratch, s'elimina.
func (self *overlay) del( segs []string ) error {

  if len(segs) == 0 {
    return fmt.Errorf ( "cannot delete the root directory: %w",
      utils.ErrNotSupported )
  }

  self.mu.Lock ()
  defer self.mu.Unlock ()

  if real,is_dir,found:= self.findScratch ( segs ); found {
    var err error
    if is_dir {
      err= self.fs.DeleteDirectory ( real )
    } else {
      err= self.fs.DeleteFile ( real )
    }
    if err != nil { return err }
  }
  self.blacklist[pathKey ( segs )]= true

  return nil

} // end overlay.del


func (self *overlay) mkdir( segs []string ) error {

  if len(segs) == 0 { return nil }

  self.mu.Lock ()
  defer self.mu.Unlock ()

  parent,err:= self.ensureAncestors ( segs )
  if err != nil { return err }
  name:= segs[len(segs)-1]
  if real,is_dir,found:= self.findScratch ( segs ); found && is_dir {
    pos:= strings.LastIndexByte ( real, '/' )
    name= real[pos+1:]
  }
  if err:= self.fs.CreateDirectory ( parent+"/"+name ); err != nil {
    return err
  }
  for i:= 1; i <= len(segs); i++ {
    delete ( self.blacklist, pathKey ( segs[:i] ) )
  }

  return nil

} // end overlay.mkdir


// Llig el fitxer de la capa. El segon valor indica si la capa el
// té.
func (self *overlay) read( segs []string ) ([]byte,bool,error) {

  self.mu.RLock ()
  defer self.mu.RUnlock ()

  real,is_dir,found:= self.findScratch ( segs )
  if !found || is_dir { return nil,false,nil }
  data,err:= self.fs.ReadAllBytes ( real )
  if err != nil { return nil,true,err }

  return data,true,nil

} // end overlay.read


// Cert si la capa té el fitxer.
func (self *overlay) hasFile( segs []string ) bool {

  self.mu.RLock ()
  defer self.mu.RUnlock ()
  _,is_dir,found:= self.findScratch ( segs )

  return found && !is_dir

} // end overlay.hasFile


// Cert si la capa té el directori.
func (self *overlay) hasDir( segs []string ) bool {

  self.mu.RLock ()
  defer self.mu.RUnlock ()
  _,is_dir,found:= self.findScratch ( segs )

  return found && is_dir

} // end overlay.hasDir


// Contingut del directori en la capa. El segon valor indica si la
// capa el té.
func (self *overlay) list( segs []string ) (*dirListing,bool) {

  self.mu.RLock ()
  defer self.mu.RUnlock ()

  real,is_dir,found:= self.findScratch ( segs )
  if !found || !is_dir { return nil,false }
  var ret dirListing
  var err error
  if ret.dirs,err= self.fs.ListDirectories ( real ); err != nil {
    return nil,false
  }
  if ret.files,err= self.fs.ListFiles ( real ); err != nil {
    return nil,false
  }

  return &ret,true

} // end overlay.list
